// utils/http.go
package utils

import (
	"net/http"
	"time"
)

var HTTPClient = &http.Client{
	Timeout: 5 * time.Second, // random.org answers fast or not at all
}
