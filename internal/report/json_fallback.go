//go:build !((linux || darwin || windows) && (amd64 || arm64))

package report

import "encoding/json"

func marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}
