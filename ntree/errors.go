package ntree

const (
	ErrTypeOutOfBounds        = "out_of_bounds"
	ErrTypeDepthLimitExceeded = "depth_limit_exceeded"
	ErrTypeAlreadyInternal    = "already_internal"
	ErrTypeAlreadyLeaf        = "already_leaf"
	ErrTypeNotAllChildrenLeaf = "not_all_children_leaf"
	ErrTypeInvalidConfig      = "invalid_config"
	ErrTypeInvalidDirection   = "invalid_direction"
	ErrTypeInvariantViolation = "invariant_violation"
)
