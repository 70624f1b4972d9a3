package glean

// Wire types for the indexing API. Only the fields this indexer sends or
// reads are declared.

type datasourceConfig struct {
	Name                    string             `json:"name"`
	DisplayName             string             `json:"displayName,omitempty"`
	DatasourceCategory      string             `json:"datasourceCategory,omitempty"`
	URLRegex                string             `json:"urlRegex,omitempty"`
	IsUserReferencedByEmail bool               `json:"isUserReferencedByEmail,omitempty"`
	ObjectDefinitions       []objectDefinition `json:"objectDefinitions,omitempty"`
}

type objectDefinition struct {
	Name                string               `json:"name"`
	DisplayLabel        string               `json:"displayLabel,omitempty"`
	DocCategory         string               `json:"docCategory,omitempty"`
	Summarizable        bool                 `json:"summarizable,omitempty"`
	PropertyDefinitions []propertyDefinition `json:"propertyDefinitions,omitempty"`
}

type propertyDefinition struct {
	Name         string `json:"name"`
	DisplayLabel string `json:"displayLabel,omitempty"`
	PropertyType string `json:"propertyType"`
	UIOptions    string `json:"uiOptions,omitempty"`
	HideUIFacet  bool   `json:"hideUiFacet"`
}

type getDatasourceConfigRequest struct {
	Datasource string `json:"datasource"`
}

type indexDocumentsRequest struct {
	UploadID   string     `json:"uploadId,omitempty"`
	Datasource string     `json:"datasource"`
	Documents  []document `json:"documents"`
}

type indexDocumentsResponse struct {
	Results []documentResult `json:"results"`
}

type documentResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

type document struct {
	ID               string           `json:"id"`
	Datasource       string           `json:"datasource"`
	ObjectType       string           `json:"objectType"`
	Title            string           `json:"title"`
	Body             *content         `json:"body,omitempty"`
	Summary          *content         `json:"summary,omitempty"`
	ViewURL          string           `json:"viewURL,omitempty"`
	Author           *user            `json:"author,omitempty"`
	Permissions      permissions      `json:"permissions"`
	CreatedAt        int64            `json:"createdAt,omitempty"`
	UpdatedAt        int64            `json:"updatedAt,omitempty"`
	Tags             []string         `json:"tags,omitempty"`
	CustomProperties []customProperty `json:"customProperties,omitempty"`
}

type content struct {
	MimeType    string `json:"mimeType"`
	TextContent string `json:"textContent"`
}

type user struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type permissions struct {
	AllowAllDatasourceUsersAccess bool `json:"allowAllDatasourceUsersAccess"`
}

type customProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
