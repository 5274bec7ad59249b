package feed

// Action names a logical session operation for status tracking.
type Action string

const (
	ActionTopic       Action = "topic"
	ActionPage        Action = "page"
	ActionComments    Action = "comments"
	ActionUser        Action = "user"
	ActionSubmissions Action = "submissions"
	ActionSearch      Action = "search"
	ActionItem        Action = "item"
	ActionArticle     Action = "article"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
