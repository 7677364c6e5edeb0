package request

// ByIDRequest binds the ":id" path parameter shared by the staff, resource
// and appointment detail endpoints. All record ids in this service are UUIDs.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
