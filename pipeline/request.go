package pipeline

type Request struct {
	Text string `json:"text"`
	Tid  string `json:"tid"`
}

// Pipeline answers a request with a single JSON document on the returned channel.
type Pipeline func(request Request) <-chan string
