package dto

import "time"

type NotificationItem struct {
	ID        uint      `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationList struct {
	Notifications []NotificationItem `json:"notifications"`
	UnreadCount   int                `json:"unreadCount"`
}
