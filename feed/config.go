package feed

// Config holds the tunable batch sizes of a Session. The three fetch
// windows (page, comment and reply batches) are independent of each other.
type Config struct {
	PageSize         int `json:"page_size"`         // stories materialized per ExtendPage
	CommentBatch     int `json:"comment_batch"`     // top-level comments fetched per thread
	ReplyBatch       int `json:"reply_batch"`       // replies fetched per top-level comment
	SubmissionBatch  int `json:"submission_batch"`  // user submissions materialized on request
	ScanBudget       int `json:"scan_budget"`       // ids inspected by Search
	ResultCap        int `json:"result_cap"`        // matches returned by Search
	Concurrency      int `json:"concurrency"`       // in-flight requests per batch; 0 uses the gateway default
	ReplyParallelism int `json:"reply_parallelism"` // reply batches fetched at once
}

func DefaultConfig() Config {
	return Config{
		PageSize:         10,
		CommentBatch:     20,
		ReplyBatch:       5,
		SubmissionBatch:  10,
		ScanBudget:       100,
		ResultCap:        10,
		ReplyParallelism: 4,
	}
}

// withDefaults fills non-positive fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.CommentBatch <= 0 {
		c.CommentBatch = d.CommentBatch
	}
	if c.ReplyBatch <= 0 {
		c.ReplyBatch = d.ReplyBatch
	}
	if c.SubmissionBatch <= 0 {
		c.SubmissionBatch = d.SubmissionBatch
	}
	if c.ScanBudget <= 0 {
		c.ScanBudget = d.ScanBudget
	}
	if c.ResultCap <= 0 {
		c.ResultCap = d.ResultCap
	}
	if c.Concurrency < 0 {
		c.Concurrency = 0
	}
	if c.ReplyParallelism <= 0 {
		c.ReplyParallelism = d.ReplyParallelism
	}
	return c
}
