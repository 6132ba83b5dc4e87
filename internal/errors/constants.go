package errors

// Error message constants
const (
	ErrMsgDuplicateMigration = "data migration already recorded"
	ErrMsgDuplicateUnit      = "data migration name registered more than once"
	ErrMsgEmptyUnitName      = "data migration name must not be empty"
	ErrMsgNilAction          = "data migration action must not be nil"
	ErrMsgRegistrySealed     = "registry is sealed; migrations must be registered at initialization"
	ErrMsgGateIndexOrder     = "repeatable index must increase in registration order"
	ErrMsgGateIndexPositive  = "repeatable index must be positive"
)
