package constants

// Persisted client state keys, formatted with the client id.
const (
	KEY_CLIENT_CART     = "storefront:%s:cart"
	KEY_CLIENT_SESSION  = "storefront:%s:session"
	KEY_CLIENT_BUY_NOW  = "storefront:%s:buynow"
	KEY_CLIENT_PENDING  = "storefront:%s:pending-registration"
	KEY_CLIENT_CHECKOUT = "storefront:%s:checkout"
)

const (
	KEY_CATALOG_PLANTS  = "catalog:plants"
	KEY_CATALOG_PLANT   = "catalog:plants:%s"
	KEY_CATALOG_AVATARS = "catalog:category-avatars"
)
