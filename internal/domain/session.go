package domain

// ============================================================
// Operator session state
// ============================================================

// FlashKind selects the banner style of a flash message.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"
)

// Flash is a one-shot message shown after a post/redirect/get cycle.
type Flash struct {
	Kind    FlashKind
	Message string
}

// ViewState records the most recent list fetch started for a (session, view) pair.
type ViewState struct {
	Seq    uint64
	Filter string
}

// ViewTicket identifies one list fetch. It is current while its Seq is the
// latest recorded for the view.
type ViewTicket struct {
	Key    string
	View   string
	Seq    uint64
	Filter string
}
