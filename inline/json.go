package inline

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/ruvdl/ruvdl/source"
)

type Episode struct {
	// Number is the position in the series listing, starting at 1.
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	// Metadata is present when extraction was requested and succeeded.
	Metadata *source.Metadata `json:"metadata,omitempty"`
	// Error is the extraction failure, if any.
	Error string `json:"error,omitempty"`
}

type Output struct {
	// Source is the site profile used.
	Source   string     `json:"source"`
	URL      string     `json:"url"`
	Title    string     `json:"title"`
	Episodes []*Episode `json:"episodes"`
}

func asJson(output *Output) ([]byte, error) {
	if output.Episodes == nil {
		output.Episodes = []*Episode{}
	}
	return json.Marshal(output)
}

// Schema returns the JSON schema of the list output.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return json.MarshalIndent(reflector.Reflect(&Output{}), "", "  ")
}
