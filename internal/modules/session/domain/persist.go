package domain

type PersistStatus string

const (
	// StatusConfirmed means the remote collector acknowledged the record.
	StatusConfirmed PersistStatus = "confirmed"
	// StatusBuffered means the record waits in the local store for a sync.
	StatusBuffered PersistStatus = "buffered"
)

type PersistResult struct {
	Status PersistStatus
	Record Record
}

type SyncReport struct {
	Attempted int
	Confirmed int
	Failed    int
	Skipped   bool
}
