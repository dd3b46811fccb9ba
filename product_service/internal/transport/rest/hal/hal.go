// Package hal builds HAL hypermedia links from route templates.
package hal

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	RelSelf        = "self"
	RelUpdate      = "update"
	RelDelete      = "delete"
	RelAllProducts = "all-products"
	RelCreate      = "create"
)

// Link is a single HAL link object.
type Link struct {
	Href string `json:"href"`
}

// Links maps a relation name to its link.
type Links map[string]Link

// Collection is a HAL collection with the items embedded under one relation.
type Collection[T any] struct {
	Embedded map[string][]T `json:"_embedded"`
	Links    Links          `json:"_links"`
}

// Assembler derives product links from the collection route and the item route template.
// It holds no request state and is safe for concurrent use.
type Assembler struct {
	collectionPath string
	itemTemplate   string
}

// NewAssembler returns an Assembler for a collection mounted at collectionPath
// whose items are addressed by itemTemplate, a path relative to it containing "{id}".
func NewAssembler(collectionPath, itemTemplate string) Assembler {
	return Assembler{
		collectionPath: collectionPath,
		itemTemplate:   collectionPath + itemTemplate,
	}
}

// ItemLinks returns the self, update, delete and all-products links of one product.
func (a Assembler) ItemLinks(origin string, id int64) Links {
	item := Link{Href: origin + Expand(a.itemTemplate, id)}
	return Links{
		RelSelf:        item,
		RelUpdate:      item,
		RelDelete:      item,
		RelAllProducts: {Href: origin + a.collectionPath},
	}
}

// CollectionLinks returns the self and create links of the collection.
func (a Assembler) CollectionLinks(origin string) Links {
	collection := Link{Href: origin + a.collectionPath}
	return Links{
		RelSelf:   collection,
		RelCreate: collection,
	}
}

// Expand substitutes id into the {id} placeholder of template.
func Expand(template string, id int64) string {
	return strings.ReplaceAll(template, "{id}", strconv.FormatInt(id, 10))
}

// Origin returns scheme://host of the request as seen by the client.
// X-Forwarded-Proto wins over the connection state when it names http or https; any other value is ignored.
func Origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		switch forwarded := strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0])); forwarded {
		case "http", "https":
			scheme = forwarded
		}
	}
	return scheme + "://" + r.Host
}
