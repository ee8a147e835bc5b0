package model

import "time"

// Roles.
const (
	RoleAdmin          = "admin"
	RoleProjectManager = "project_manager"
	RoleTeamMember     = "team_member"
	RoleFinance        = "finance"
)

// Project statuses.
const (
	ProjectPlanning  = "Planning"
	ProjectActive    = "Active"
	ProjectOnHold    = "OnHold"
	ProjectCompleted = "Completed"
	ProjectCancelled = "Cancelled"
)

// Task statuses.
const (
	TaskNew        = "New"
	TaskInProgress = "InProgress"
	TaskBlocked    = "Blocked"
	TaskDone       = "Done"
)

// Timesheet statuses.
const (
	TimesheetDraft     = "Draft"
	TimesheetSubmitted = "Submitted"
	TimesheetApproved  = "Approved"
	TimesheetRejected  = "Rejected"
)

type User struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	Name       string    `json:"name"`
	Email      string    `gorm:"uniqueIndex" json:"email"`
	Password   string    `json:"-"`
	Role       string    `gorm:"default:team_member" json:"role"`
	HourlyRate float64   `json:"hourly_rate"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

type Project struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	ManagerID int       `json:"manager_id"`
	Budget    float64   `json:"budget"`
	StartDate string    `gorm:"type:date" json:"start_date"`
	EndDate   string    `gorm:"type:date" json:"end_date"`
	Status    string    `gorm:"default:Planning" json:"status"`
	Progress  int       `gorm:"default:0" json:"progress"`
	CreatedAt time.Time `json:"created_at"`

	Manager        *User             `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Tasks          []Task            `gorm:"constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	Team           []ProjectTeam     `gorm:"constraint:OnDelete:CASCADE" json:"team,omitempty"`
	SalesOrders    []SalesOrder      `gorm:"constraint:OnDelete:CASCADE" json:"sales_orders,omitempty"`
	PurchaseOrders []PurchaseOrder   `gorm:"constraint:OnDelete:CASCADE" json:"purchase_orders,omitempty"`
	Expenses       []Expense         `gorm:"constraint:OnDelete:CASCADE" json:"expenses,omitempty"`
	Timesheets     []Timesheet       `gorm:"constraint:OnDelete:CASCADE" json:"timesheets,omitempty"`
	Invoices       []CustomerInvoice `gorm:"constraint:OnDelete:CASCADE" json:"invoices,omitempty"`
	VendorBills    []VendorBill      `gorm:"constraint:OnDelete:CASCADE" json:"vendor_bills,omitempty"`
	Messages       []ProjectMessage  `gorm:"constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

type Task struct {
	ID             int       `gorm:"primaryKey" json:"id"`
	ProjectID      int       `gorm:"index" json:"project_id"`
	Name           string    `json:"name"`
	AssignedTo     *int      `gorm:"index" json:"assigned_to"`
	Status         string    `gorm:"default:New" json:"status"`
	HoursLogged    float64   `gorm:"default:0" json:"hours_logged"`
	EstimatedHours float64   `json:"estimated_hours"`
	Priority       string    `gorm:"default:Medium" json:"priority"`
	DueDate        string    `gorm:"type:date" json:"due_date"`
	CreatedAt      time.Time `json:"created_at"`

	Assignee *User `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}

type Timesheet struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"index" json:"user_id"`
	TaskID    int       `gorm:"index" json:"task_id"`
	ProjectID int       `gorm:"index" json:"project_id"`
	Date      string    `gorm:"type:date" json:"date"`
	Hours     float64   `json:"hours"`
	Billable  bool      `json:"billable"`
	Status    string    `gorm:"default:Draft" json:"status"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty"`
	Task *Task `json:"task,omitempty"`
}

type SalesOrder struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	ProjectID int       `gorm:"index" json:"project_id"`
	Client    string    `json:"client"`
	Amount    float64   `json:"amount"`
	Status    string    `gorm:"default:Draft" json:"status"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type PurchaseOrder struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	ProjectID int       `gorm:"index" json:"project_id"`
	Vendor    string    `json:"vendor"`
	Amount    float64   `json:"amount"`
	Status    string    `gorm:"default:Draft" json:"status"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type Expense struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	ProjectID   int       `gorm:"index" json:"project_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Status      string    `gorm:"default:Pending" json:"status"`
	CreatedBy   int       `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type CustomerInvoice struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	ProjectID int       `gorm:"index" json:"project_id"`
	Client    string    `json:"client"`
	Amount    float64   `json:"amount"`
	Status    string    `gorm:"default:Draft" json:"status"`
	DueDate   string    `gorm:"type:date" json:"due_date"`
	CreatedAt time.Time `json:"created_at"`
}

type VendorBill struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	ProjectID int       `gorm:"index" json:"project_id"`
	Vendor    string    `json:"vendor"`
	Amount    float64   `json:"amount"`
	Status    string    `gorm:"default:Draft" json:"status"`
	DueDate   string    `gorm:"type:date" json:"due_date"`
	CreatedAt time.Time `json:"created_at"`
}

type ProjectTeam struct {
	ID        int `gorm:"primaryKey" json:"id"`
	ProjectID int `gorm:"uniqueIndex:uk_project_user" json:"project_id"`
	UserID    int `gorm:"uniqueIndex:uk_project_user" json:"user_id"`

	User *User `json:"user,omitempty"`
}

type ProjectMessage struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	ProjectID  int       `gorm:"index" json:"project_id"`
	UserID     int       `json:"user_id"`
	Text       string    `json:"text"`
	Attachment string    `json:"attachment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	User *User `json:"user,omitempty"`
}

type OTP struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"index" json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `gorm:"default:false" json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string            { return "users" }
func (Project) TableName() string         { return "projects" }
func (Task) TableName() string            { return "tasks" }
func (Timesheet) TableName() string       { return "timesheets" }
func (SalesOrder) TableName() string      { return "sales_orders" }
func (PurchaseOrder) TableName() string   { return "purchase_orders" }
func (Expense) TableName() string         { return "expenses" }
func (CustomerInvoice) TableName() string { return "customer_invoices" }
func (VendorBill) TableName() string      { return "vendor_bills" }
func (ProjectTeam) TableName() string     { return "project_teams" }
func (ProjectMessage) TableName() string  { return "project_messages" }
func (OTP) TableName() string             { return "otps" }
