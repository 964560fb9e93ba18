package constants

const (
	APP_STOREFRONT          = "storefront"
	APP_INCIDENTS           = "incidents"
	APP_MAIN_ECOMMERCE      = "main ecommerce"
	AUDIENCE_CLIENT         = "audience-storefront-client"
	PAYMENT_METHOD_RAZORPAY = "Razorpay"
)
