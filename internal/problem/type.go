package problem

import "net/http"

// Type is one category of the error taxonomy rendered in Problem documents
type Type struct {
	Path   string
	Title  string
	Status int // status normally paired with the category
}

// The category set is part of the API contract: add, never remove.
var (
	ResourceNotFound        = Type{Path: "/resource-not-found", Title: "Resource not found", Status: http.StatusNotFound}
	EntityInUse             = Type{Path: "/entity-in-use", Title: "Entity in use", Status: http.StatusBadRequest}
	EntityAlreadyExists     = Type{Path: "/entity-already-exists", Title: "Entity already exists", Status: http.StatusBadRequest}
	PropertyNotExist        = Type{Path: "/property-not-exist", Title: "Property not exist", Status: http.StatusConflict}
	IncomprehensibleMessage = Type{Path: "/incomprehensible-message", Title: "Incomprehensible message", Status: http.StatusBadRequest}
	InvalidParameter        = Type{Path: "/invalid-parameter", Title: "Invalid parameter", Status: http.StatusBadRequest}
	InvalidData             = Type{Path: "/invalid-data", Title: "Invalid data", Status: http.StatusBadRequest}
	InternalServerError     = Type{Path: "/internal-server-error", Title: "Internal server error", Status: http.StatusInternalServerError}
	AccessDenied            = Type{Path: "/access-denied", Title: "Access denied", Status: http.StatusForbidden}
	Unauthorized            = Type{Path: "/unauthorized", Title: "Unauthorized", Status: http.StatusUnauthorized}
)

// Types lists every category
func Types() []Type {
	return []Type{
		ResourceNotFound,
		EntityInUse,
		EntityAlreadyExists,
		PropertyNotExist,
		IncomprehensibleMessage,
		InvalidParameter,
		InvalidData,
		InternalServerError,
		AccessDenied,
		Unauthorized,
	}
}

// URI returns the category identifier under baseURI
func (t Type) URI(baseURI string) string {
	return baseURI + t.Path
}
