package ws

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

var errNilBody = errors.New("ws request body is nil")

// BindMsg 把已解码的 msg（map[string]any）按 json tag 填进 dst。
// 数字在 json 里是 float64，这里放宽成弱类型转换。
func BindMsg(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errNilBody
	}
	if req.Body.Msg == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(req.Body.Msg)
}
