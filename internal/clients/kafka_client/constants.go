package kafka_client

import "time"

const (
	KAFKA_TOPIC_JOURNAL_REQUESTS = "journal-requests" // per-session daily journal generation requests
	KAFKA_TOPIC_JOURNAL_RESULTS  = "journal-results"  // generated entries, consumed by the notifier
)

const (
	MAX_RETRIES = 5
	RETRY_DELAY = 2 * time.Second
)
