package engine

// EventType names a presentation event
type EventType string

const (
	EventPieceMoved    EventType = "piece_moved"
	EventPieceCaptured EventType = "piece_captured"
	EventTurnChanged   EventType = "turn_changed"
	EventBonusRoll     EventType = "bonus_roll"
	EventGameOver      EventType = "game_over"
	EventStatus        EventType = "status"
)

// BonusReason explains why a player rolls again
type BonusReason string

const (
	BonusSix     BonusReason = "six"
	BonusFinish  BonusReason = "finish"
	BonusCapture BonusReason = "capture"
)

// StatusKind classifies informational status events.
type StatusKind string

const (
	StatusRolled    StatusKind = "rolled"
	StatusSkipped   StatusKind = "skipped"
	StatusForfeited StatusKind = "forfeited"
	StatusResumed   StatusKind = "resumed"
)

// Event is a presentation notification. The rules are already applied when
// an event is emitted; playing it back is purely cosmetic.
type Event struct {
	Seq     int         `json:"seq"`
	Type    EventType   `json:"type"`
	Player  Color       `json:"player"`
	Piece   *PieceRef   `json:"piece,omitempty"`
	From    *Position   `json:"from,omitempty"`
	To      *Position   `json:"to,omitempty"`
	Reason  BonusReason `json:"reason,omitempty"`
	Status  StatusKind  `json:"status,omitempty"`
	Value   int         `json:"value,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Listener receives presentation callbacks synchronously as events are emitted.
type Listener interface {
	OnPieceMoved(piece PieceRef, from, to Position)
	OnPieceCaptured(piece PieceRef)
	OnTurnChanged(player Color)
	OnBonusRoll(reason BonusReason)
	OnGameOver(winner Color)
}

// NopListener implements Listener with no-ops; embed it to override a subset.
type NopListener struct{}

func (NopListener) OnPieceMoved(PieceRef, Position, Position) {}
func (NopListener) OnPieceCaptured(PieceRef)                  {}
func (NopListener) OnTurnChanged(Color)                       {}
func (NopListener) OnBonusRoll(BonusReason)                   {}
func (NopListener) OnGameOver(Color)                          {}

// EventQueue buffers events until the UI drains them
type EventQueue struct {
	events    []Event
	seq       int
	listeners []Listener
}

// NewEventQueue creates an empty queue notifying the given listeners
func NewEventQueue(listeners ...Listener) *EventQueue {
	return &EventQueue{listeners: listeners}
}

// Subscribe adds a listener.
func (q *EventQueue) Subscribe(l Listener) {
	if l != nil {
		q.listeners = append(q.listeners, l)
	}
}

// Push appends an event, assigns its sequence number and notifies listeners.
func (q *EventQueue) Push(ev Event) {
	q.seq++
	ev.Seq = q.seq
	q.events = append(q.events, ev)
	for _, l := range q.listeners {
		dispatch(l, ev)
	}
}

// Drain returns and clears all buffered events
func (q *EventQueue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of buffered events.
func (q *EventQueue) Len() int {
	return len(q.events)
}

func dispatch(l Listener, ev Event) {
	switch ev.Type {
	case EventPieceMoved:
		if ev.Piece != nil && ev.From != nil && ev.To != nil {
			l.OnPieceMoved(*ev.Piece, *ev.From, *ev.To)
		}
	case EventPieceCaptured:
		if ev.Piece != nil {
			l.OnPieceCaptured(*ev.Piece)
		}
	case EventTurnChanged:
		l.OnTurnChanged(ev.Player)
	case EventBonusRoll:
		l.OnBonusRoll(ev.Reason)
	case EventGameOver:
		l.OnGameOver(ev.Player)
	}
}
