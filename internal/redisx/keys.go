package redisx

import "time"

const (
	// Идемпотентность создания заказа: idem:order:create:{key} -> order_id
	KeyIdemOrderCreate = "idem:order:create:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
)
