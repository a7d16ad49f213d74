package source

// Candidate is a discovered episode link. URL is absolute and identifies the candidate.
type Candidate struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

func (c *Candidate) String() string {
	return c.Title
}

// Series is a parsed series landing page.
type Series struct {
	Title    string       `json:"title"`
	URL      string       `json:"url"`
	Episodes []*Candidate `json:"episodes"`
}

func (s *Series) String() string {
	return s.Title
}
