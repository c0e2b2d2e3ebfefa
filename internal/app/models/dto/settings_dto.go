package dto

// UpdateSettingRequest sets one setting value.
type UpdateSettingRequest struct {
	Value       string  `json:"value" binding:"required"`
	ValueType   *string `json:"valueType" validate:"omitempty,oneof=string integer boolean"`
	Description *string `json:"description"`
}

// RequiredDaysRequest sets the required days of instruction.
type RequiredDaysRequest struct {
	RequiredDays int `json:"requiredDays" binding:"required" validate:"min=1,max=365"`
}

// RequiredDaysResponse returns the required days of instruction.
type RequiredDaysResponse struct {
	RequiredDays int `json:"requiredDays"`
}
