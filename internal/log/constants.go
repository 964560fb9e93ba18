package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyProcess            = "process"
	KeyToken              = "token"
	KeyEmail              = "email"
	KeyTag                = "tag"
	KeyRequest            = "request"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestProcessedAt = "requestProcessedAt"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyConfig             = "config"
	KeyClientID           = "clientId"
	KeyUserID             = "userId"
	KeySession            = "session"
	KeyPlants             = "plants"
	KeyIncidents          = "incidents"
	KeyCacheKey           = "cacheKey"
	KeyCart               = "cart"
	KeyCartLines          = "cartLines"
	KeyProductID          = "productId"
	KeyQuantity           = "quantity"
	KeyPostalCode         = "postalCode"
	KeyWeight             = "weightGrams"
	KeyQuote              = "quote"
	KeyCheckoutID         = "checkoutId"
	KeyCheckoutState      = "checkoutState"
	KeyCheckoutSource     = "checkoutSource"
	KeyOrderID            = "orderId"
	KeyOrders             = "orders"
	KeyProviderOrderID    = "providerOrderId"
	KeyPaymentID          = "paymentId"
	KeyIncidentID         = "incidentId"
	KeyPathValues         = "pathValues"
	KeyEndpoint           = "endpoint"
	KeyStatusCode         = "statusCode"
	KeyDbURL              = "dbUrl"
)
