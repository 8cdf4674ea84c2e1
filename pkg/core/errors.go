package core

import "fmt"

// ErrHalt is a host-level convention, not part of the RISC-V error
// taxonomy: the CLI harness raises it when it recognises the
// conventional all-zero halt word at the fetch stage (see
// SPEC_FULL.md §4.11). The core itself never returns it.
var ErrHalt = fmt.Errorf("core: halt requested by host convention")
