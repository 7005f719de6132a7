package deletion

// Collection is the document store collection deletion requests go to.
const Collection = "data-deletion-requests"

// StatusPending is the status every new request starts in. Processing and
// the processedAt timestamp are handled outside this service.
const StatusPending = "pending"

// Request is one data-deletion request.
type Request struct {
	ID     string
	Email  string
	Reason *string
	Status string
}
