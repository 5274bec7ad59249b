package hn

// Topic selects one of the upstream story lists.
type Topic string

const (
	TopicTop  Topic = "top"
	TopicNew  Topic = "new"
	TopicBest Topic = "best"
	TopicAsk  Topic = "ask"
	TopicShow Topic = "show"
	TopicJobs Topic = "jobs"
)

// DefaultTopic is used for any tag outside the known set.
const DefaultTopic = TopicTop

var topicEndpoints = map[Topic]string{
	TopicTop:  "topstories",
	TopicNew:  "newstories",
	TopicBest: "beststories",
	TopicAsk:  "askstories",
	TopicShow: "showstories",
	TopicJobs: "jobstories",
}

// Topics returns the known topics in tab order.
func Topics() []Topic {
	return []Topic{TopicTop, TopicNew, TopicBest, TopicAsk, TopicShow, TopicJobs}
}

// ParseTopic maps a tag to a known topic, falling back to DefaultTopic.
func ParseTopic(tag string) Topic {
	t := Topic(tag)
	if _, ok := topicEndpoints[t]; ok {
		return t
	}
	return DefaultTopic
}

func (t Topic) endpoint() string {
	if ep, ok := topicEndpoints[t]; ok {
		return ep
	}
	return topicEndpoints[DefaultTopic]
}
