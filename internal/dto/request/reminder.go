package request

type ReminderRequest struct {
	Title string  `json:"title" validate:"required,min=1,max=200"`
	Note  *string `json:"note,omitempty" validate:"omitempty,max=500"`
	DueAt string  `json:"due_at" validate:"required"`
}

type ReminderUpdateRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Note  *string `json:"note,omitempty" validate:"omitempty,max=500"`
	DueAt *string `json:"due_at,omitempty"`
}
