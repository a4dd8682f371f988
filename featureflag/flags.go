package featureflag

type Flag string

const (
	// FlagValidateInvariants checks the planet tree invariants after every
	// frame.
	FlagValidateInvariants Flag = "VALIDATE_INVARIANTS"

	// FlagPrintTree logs the planet tree structure after every frame.
	FlagPrintTree Flag = "PRINT_TREE"

	// FlagDisablePayloads stops attaching tile payloads to leaves.
	FlagDisablePayloads Flag = "DISABLE_PAYLOADS"
)
