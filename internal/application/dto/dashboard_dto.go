package dto

// DashboardDTO respuesta de GET /api/dashboard.
// Los contadores My* solo se informan para sesiones sin privilegios de administrador.
type DashboardDTO struct {
	TotalItems       int  `json:"total_items"`
	NeedsReorder     int  `json:"needs_reorder"`
	OutOfStock       int  `json:"out_of_stock"`
	LowStock         int  `json:"low_stock"`
	PendingReports   int  `json:"pending_reports"`
	ReviewedReports  int  `json:"reviewed_reports"`
	AppliedReports   int  `json:"applied_reports"`
	MyPendingReports *int `json:"my_pending_reports,omitempty"`
	MyAppliedReports *int `json:"my_applied_reports,omitempty"`
	StoreDegraded    bool `json:"store_degraded"`
}
