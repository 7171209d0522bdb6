package events

import "time"

const (
	TypeSubscriptionActivated = "SUBSCRIPTION_ACTIVATED"
	TypeSubscriptionPastDue   = "SUBSCRIPTION_PAST_DUE"
	TypeSubscriptionCanceled  = "SUBSCRIPTION_CANCELED"
	TypeWaitlistJoined        = "WAITLIST_JOINED"
	TypeWaitlistNotified      = "WAITLIST_NOTIFIED"
)

func NewSubscriptionActivated(userId, planSlug string, amount float64) Event {
	return BaseEvent{
		Type: TypeSubscriptionActivated,
		Data: map[string]interface{}{
			"user_id":   userId,
			"plan_slug": planSlug,
			"amount":    amount,
		},
		OccurredAt: time.Now(),
	}
}

func NewWaitlistJoined(email string, position int) Event {
	return BaseEvent{
		Type: TypeWaitlistJoined,
		Data: map[string]interface{}{
			"email":    email,
			"position": position,
		},
		OccurredAt: time.Now(),
	}
}

func NewWaitlistNotified(email, name string) Event {
	return BaseEvent{
		Type: TypeWaitlistNotified,
		Data: map[string]interface{}{
			"email": email,
			"name":  name,
		},
		OccurredAt: time.Now(),
	}
}
