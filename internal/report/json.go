//go:build (linux || darwin || windows) && (amd64 || arm64)

package report

import "github.com/bytedance/sonic"

var api = sonic.ConfigStd

func marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}
