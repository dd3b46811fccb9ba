package rest

// Route templates shared by dispatch and link generation.
const (
	V1BasePath = "/api/v1/products"
	V2BasePath = "/api/v2/products"

	// ItemPath addresses one product below a base path.
	ItemPath = "/id/{id}"
	// ByIDsPath lists products selected by the ids query parameter.
	ByIDsPath = "/by-id"

	idsParam = "ids"
)
