package api

// Role is the acting identity. It selects which persisted token slot is
// used for authenticated calls.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// RequestDescriptor describes one API call. Ephemeral: a new descriptor is
// built per call and mutated only by the pipeline's retry loop.
//
// Body is serialized to JSON unless RawBody is set, in which case RawBody
// is sent verbatim with ContentType.
type RequestDescriptor struct {
	Path         string
	Method       string
	Body         any
	RawBody      []byte
	ContentType  string
	RequiresAuth bool
	Role         Role

	// internal marks calls issued by the auth controller itself; they do
	// not reset the shared retry counter on success.
	internal bool

	// retry loop state
	attempts int
	isRetry  bool
}
