package ws

import (
	"encoding/json"
	"errors"

	"github.com/go-think/openssl"
	"github.com/gorilla/websocket"

	"HexHarvest/internal/shared/security"
	"HexHarvest/internal/shared/utils"
)

var ErrNoSecretKey = errors.New("ws secret key not negotiated")

// FrameCodec 负责 json 与线上帧之间的转换。
type FrameCodec interface {
	Encode(conn WSConn, body []byte) (msgType int, data []byte, err error)
	Decode(conn WSConn, data []byte) ([]byte, error)
	// Handshake 返回连接建立后要先发出的帧，不需要握手时 ok=false。
	Handshake(conn WSConn) (data []byte, ok bool, err error)
}

// PlainCodec 明文 json 文本帧。
type PlainCodec struct{}

func (PlainCodec) Encode(_ WSConn, body []byte) (int, []byte, error) {
	return websocket.TextMessage, body, nil
}

func (PlainCodec) Decode(_ WSConn, data []byte) ([]byte, error) {
	return data, nil
}

func (PlainCodec) Handshake(WSConn) ([]byte, bool, error) {
	return nil, false, nil
}

// SecureCodec 密文帧：json -> AES-CBC -> gzip，二进制帧。握手帧只压缩不加密，用来下发密钥。
type SecureCodec struct{}

func (SecureCodec) Encode(conn WSConn, body []byte) (int, []byte, error) {
	key, err := secretKey(conn)
	if err != nil {
		return 0, nil, err
	}
	enc, err := security.AesCBCEncrypt(body, key, key, openssl.ZEROS_PADDING)
	if err != nil {
		return 0, nil, err
	}
	zipped, err := security.Zip(enc)
	if err != nil {
		return 0, nil, err
	}
	// 压缩后的密文是二进制字节流，必须走 BinaryMessage
	return websocket.BinaryMessage, zipped, nil
}

func (SecureCodec) Decode(conn WSConn, data []byte) ([]byte, error) {
	raw, err := security.UnZip(data)
	if err != nil {
		return nil, err
	}
	key, err := secretKey(conn)
	if err != nil {
		return nil, err
	}
	return security.AesCBCDecrypt(raw, key, key, openssl.ZEROS_PADDING)
}

func (SecureCodec) Handshake(conn WSConn) ([]byte, bool, error) {
	key, _ := conn.GetProperty(SecretKey).(string)
	if key == "" {
		key = utils.RandSeq(16)
		conn.SetProperty(SecretKey, key)
	}
	data, err := json.Marshal(&RespBody{Name: HandshakeMsg, Msg: &Handshake{Key: key}})
	if err != nil {
		return nil, false, err
	}
	zipped, err := security.Zip(data)
	if err != nil {
		return nil, false, err
	}
	return zipped, true, nil
}

func secretKey(conn WSConn) ([]byte, error) {
	key, _ := conn.GetProperty(SecretKey).(string)
	if key == "" {
		return nil, ErrNoSecretKey
	}
	return []byte(key), nil
}
