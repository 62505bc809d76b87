package handler

// Request schemas checked by validate.Middleware before a handler runs.

type RegisterBody struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

type LoginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateTaskBody struct {
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description" validate:"required,min=1"`
}

type UpdateTaskBody struct {
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description" validate:"required,min=1"`
	Completed   *bool  `json:"completed"`
}

type TaskParams struct {
	ID string `param:"id" validate:"required,uuid"`
}

type ListTasksQuery struct {
	Completed string `query:"completed" validate:"omitempty,oneof=true false"`
}
