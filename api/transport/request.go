package transport

type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ProfileUpdateRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type TaskCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date"`
	LabelIDs    []string `json:"label_ids"`
}

// TaskUpdateRequest uses pointers so absent fields stay untouched.
type TaskUpdateRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	Priority    *string   `json:"priority"`
	DueDate     *string   `json:"due_date"`
	LabelIDs    *[]string `json:"label_ids"`
}

type TaskStatusRequest struct {
	Status string `json:"status"`
}

type LabelCreateRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type LabelUpdateRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}
