package dto

type NotifyBatchRequest struct {
	Count int `json:"count" validate:"required,min=1,max=500"`
}

type NotifyBatchResponse struct {
	Notified int `json:"notified"`
}

type ExpireStaleRequest struct {
	WindowDays int `json:"window_days" validate:"omitempty,min=1,max=90"`
}

type ExpireStaleResponse struct {
	Expired int `json:"expired"`
}

type AdminDashboardResponse struct {
	Capacity       *CapacityStatsResponse `json:"capacity"`
	WaitlistBySt   map[string]int64       `json:"waitlist_by_status"`
	TotalUsers     int64                  `json:"total_users"`
	PaymentEvents  int64                  `json:"payment_events"`
	RecentRejected int64                  `json:"recent_capacity_rejections"`
}
