package magento

import "github.com/m-mizutani/goerr/v2"

var (
	ErrAuthentication = goerr.New("magento authentication failed")
	ErrGraphQL        = goerr.New("magento graphql error")
	ErrHTTPStatus     = goerr.New("unexpected magento http status")
)

const (
	URLKey        = "url"
	StatusCodeKey = "status_code"
	BodyKey       = "body"
)
