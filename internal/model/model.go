package model

// Identity is the authenticated caller, extracted from the JWT by the
// middleware and passed explicitly into every service call.
type Identity struct {
	UserID int
	Name   string
	Role   string
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type UserProfile struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ListResponse is the envelope for every list endpoint. Data is always a
// slice, empty rather than null when the caller has no visible rows.
type ListResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    any  `json:"data"`
}

type TimesheetStatusRequest struct {
	Status string   `json:"status" binding:"required"`
	Hours  *float64 `json:"hours,omitempty"`
}

// ProjectFinancials is the rollup of a project's financial documents.
type ProjectFinancials struct {
	ProjectID   int     `json:"project_id"`
	ProjectName string  `json:"project_name,omitempty"`
	Revenue     float64 `json:"revenue"`
	Cost        float64 `json:"cost"`
	Expenses    float64 `json:"expenses"`
	Profit      float64 `json:"profit"`
}

// HoursSummary is the billable/non-billable split over a date range.
type HoursSummary struct {
	TotalHours       float64 `json:"total_hours"`
	BillableHours    float64 `json:"billable_hours"`
	NonBillableHours float64 `json:"non_billable_hours"`
}

type DashboardResponse struct {
	Projects []ProjectFinancials `json:"projects"`
	Totals   ProjectFinancials   `json:"totals"`
}
