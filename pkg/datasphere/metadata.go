package datasphere

import (
	"encoding/xml"
	"fmt"

	"github.com/spheresight/datasphere-mcp/pkg/models"
)

// edmx mirrors the subset of an OData EDMX $metadata document we need:
// entity types with their properties and key references.
type edmx struct {
	XMLName      xml.Name `xml:"Edmx"`
	DataServices struct {
		Schemas []struct {
			Namespace   string `xml:"Namespace,attr"`
			EntityTypes []struct {
				Name string `xml:"Name,attr"`
				Key  struct {
					PropertyRefs []struct {
						Name string `xml:"Name,attr"`
					} `xml:"PropertyRef"`
				} `xml:"Key"`
				Properties []struct {
					Name     string `xml:"Name,attr"`
					Type     string `xml:"Type,attr"`
					Nullable string `xml:"Nullable,attr"`
				} `xml:"Property"`
			} `xml:"EntityType"`
		} `xml:"Schema"`
	} `xml:"DataServices"`
}

// ParseRelationalMetadata extracts column definitions from an EDMX $metadata
// document. The first entity type that declares properties wins; Datasphere
// relational metadata exposes exactly one per asset. Nullable defaults to
// true when the attribute is absent, per the OData spec.
func ParseRelationalMetadata(doc string) ([]models.Column, error) {
	var parsed edmx
	if err := xml.Unmarshal([]byte(doc), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse relational metadata: %w", err)
	}

	for _, schema := range parsed.DataServices.Schemas {
		for _, entity := range schema.EntityTypes {
			if len(entity.Properties) == 0 {
				continue
			}

			keys := map[string]bool{}
			for _, ref := range entity.Key.PropertyRefs {
				keys[ref.Name] = true
			}

			columns := make([]models.Column, 0, len(entity.Properties))
			for _, prop := range entity.Properties {
				colType := prop.Type
				nullable := prop.Nullable != "false"
				columns = append(columns, models.Column{
					Name:     prop.Name,
					Type:     &colType,
					Nullable: &nullable,
					IsKey:    keys[prop.Name],
				})
			}
			return columns, nil
		}
	}
	return nil, fmt.Errorf("relational metadata contains no entity type with properties")
}
