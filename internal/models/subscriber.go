// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriberStatus is the state of a newsletter subscription.
type SubscriberStatus string

const (
	SubscriberStatusActive       SubscriberStatus = "active"
	SubscriberStatusUnsubscribed SubscriberStatus = "unsubscribed"
)

// Subscriber is a newsletter subscription. Emails are unique and stored
// lower-case.
type Subscriber struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	Source    string           `json:"source"`
	Status    SubscriberStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
