package vm

// PTEFlags mirrors the page-directory/page-table entry flags spec.md
// §4.2 step 5 installs: {present, user, plus write if write-fault}.
type PTEFlags uint8

const (
	PTEPresent PTEFlags = 1 << 0
	PTEUser    PTEFlags = 1 << 1
	PTEWrite   PTEFlags = 1 << 2
)

// PageTable is the abstract page-table hardware primitive spec.md §1
// places out of scope ("page-table hardware manipulation primitives").
// The fault handler's only contract with it is installing one mapping.
type PageTable interface {
	Map(pagenum uint64, phys uintptr, flags PTEFlags) error
}
