package policy

import (
	"net/http"

	"github.com/mytheresa/sales-api/app/api"
	"github.com/mytheresa/sales-api/app/auth"
)

// Kind is the variant of a Policy.
type Kind int

const (
	// AuthenticatedOnly lets any authenticated caller do anything.
	AuthenticatedOnly Kind = iota
	// ReadOnly allows safe methods only.
	ReadOnly
	// CreateOrRead allows safe methods and POST.
	CreateOrRead
	// OwnerOrRead allows safe methods to everyone and writes to the owner of the record.
	OwnerOrRead
)

func (k Kind) String() string {
	switch k {
	case AuthenticatedOnly:
		return "authenticated_only"
	case ReadOnly:
		return "read_only"
	case CreateOrRead:
		return "create_or_read"
	case OwnerOrRead:
		return "owner_or_read"
	}
	return "unknown"
}

// Policy decides which requests an authenticated caller may make against a resource.
type Policy struct {
	Kind Kind
}

// Owner is a record with an owning user.
type Owner interface {
	OwnerID() uint
}

// Entity names a resource family that carries a policy.
type Entity int

const (
	EntityCategory Entity = iota
	EntityArticle
	EntitySale
	EntityUser
	EntitySaleAggregated
)

// For returns the policy of an entity. Strict mode makes categories
// read-only and articles create-or-read.
func For(entity Entity, strict bool) Policy {
	switch entity {
	case EntityCategory:
		if strict {
			return Policy{Kind: ReadOnly}
		}
	case EntityArticle:
		if strict {
			return Policy{Kind: CreateOrRead}
		}
	case EntitySale:
		return Policy{Kind: OwnerOrRead}
	case EntitySaleAggregated:
		return Policy{Kind: ReadOnly}
	}
	return Policy{Kind: AuthenticatedOnly}
}

// IsSafe reports whether method only reads.
func IsSafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AllowRequest is the request level check, run before any record is loaded.
func AllowRequest(p Policy, method string, caller *auth.Caller) error {
	if caller == nil {
		return api.ErrNotAuthenticated
	}

	switch p.Kind {
	case AuthenticatedOnly, OwnerOrRead:
		return nil
	case ReadOnly:
		if IsSafe(method) {
			return nil
		}
	case CreateOrRead:
		if IsSafe(method) || method == http.MethodPost {
			return nil
		}
	}
	return api.ErrForbidden
}

// AllowObject is the object level check, run once the target record was found.
func AllowObject(p Policy, method string, caller *auth.Caller, record Owner) error {
	if err := AllowRequest(p, method, caller); err != nil {
		return err
	}
	if p.Kind != OwnerOrRead || IsSafe(method) {
		return nil
	}
	if record == nil || record.OwnerID() != caller.UserID {
		return api.ErrForbidden
	}
	return nil
}
