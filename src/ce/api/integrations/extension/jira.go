package extension

import (
	"strings"

	"github.com/relaypoint-io/relaypoint/src/lib/errors"
	"github.com/relaypoint-io/relaypoint/src/lib/signing"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Jira provider keys.
const (
	ProviderJira         = "jira"
	ExternalProviderJira = "jira"
)

const jiraMetadataSchemaURL = "https://relaypoint.io/schemas/jira-metadata.json"

// jiraMetadataSchema describes the metadata Jira Cloud sends along the
// signed parameters of its configure link.
const jiraMetadataSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"base_url": { "type": "string", "minLength": 1 },
		"domain_name": { "type": "string" },
		"icon": { "type": "string" }
	}
}`

// NewJira returns the extension configuration adapter of the Jira integration.
func NewJira(signer signing.Signer, opts ...Option) *Adapter {
	return NewAdapter(ProviderJira, signer, append([]Option{WithExternalProviderKey(ExternalProviderJira)}, opts...)...)
}

// JiraMetadataSchema compiles the schema used to validate Jira metadata
// when strict metadata validation is enabled.
func JiraMetadataSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(jiraMetadataSchema))

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to decode jira metadata schema")
	}

	c := jsonschema.NewCompiler()

	if err := c.AddResource(jiraMetadataSchemaURL, doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to add jira metadata schema")
	}

	schema, err := c.Compile(jiraMetadataSchemaURL)

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to compile jira metadata schema")
	}

	return schema, nil
}
