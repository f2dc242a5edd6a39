package http

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"HexHarvest/internal/island/actors"
	"HexHarvest/internal/island/app"
	"HexHarvest/internal/island/domain"
	"HexHarvest/internal/island/interfaces/handler"
	"HexHarvest/internal/shared/security"
	"HexHarvest/internal/shared/transport"
)

type fakeRuntime struct {
	owned  []int
	lastID domain.SessionID
}

func (f *fakeRuntime) Create(context.Context) (actors.Created, error) {
	return actors.Created{SessionID: 5, Map: app.MapView{SessionID: 5, RowWidth: 4}}, nil
}

func (f *fakeRuntime) Map(_ context.Context, id domain.SessionID) (app.MapView, error) {
	f.lastID = id
	return app.MapView{SessionID: int64(id), RowWidth: 4}, nil
}

func (f *fakeRuntime) Resources(_ context.Context, id domain.SessionID) (app.ResourcesView, error) {
	f.lastID = id
	return app.ResourcesView{SessionID: int64(id)}, nil
}

func (f *fakeRuntime) Build(_ context.Context, id domain.SessionID, index int) (app.BuildView, error) {
	f.lastID = id
	if index < 0 || index >= 16 {
		return app.BuildView{}, domain.ErrOutOfRange.WithData("index", index)
	}
	f.owned = append(f.owned, index)
	return app.BuildView{Index: index, Owned: f.owned}, nil
}

func (f *fakeRuntime) Roll(_ context.Context, id domain.SessionID) (app.RollView, error) {
	f.lastID = id
	return app.RollView{Dice: [2]int{3, 4}, Sum: 7, Yields: []app.YieldView{}}, nil
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newTestEngine(rt handler.Runtime) (*gin.Engine, handler.SignerAdapter) {
	gin.SetMode(gin.TestMode)
	signer := handler.SignerAdapter{Signer: security.NewSigner("test-secret", 0)}
	e := gin.New()
	NewHttpHandler(handler.NewIsland(rt, signer, nil)).RegisterRoutes(e.Group(""))
	return e, signer
}

func do(t *testing.T, e *gin.Engine, method, path, token string, body any) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	if w.Code != nethttp.StatusOK {
		t.Fatalf("期望 HTTP 200，实际 %d", w.Code)
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode resp: %v body=%s", err, w.Body.String())
	}
	return env
}

func TestCreate_返回令牌且可访问地图(t *testing.T) {
	rt := &fakeRuntime{}
	e, _ := newTestEngine(rt)

	env := do(t, e, nethttp.MethodPost, "/island/sessions", "", nil)
	if env.Code != transport.OK {
		t.Fatalf("期望开局成功，实际 code=%d msg=%s", env.Code, env.Msg)
	}
	var reply handler.CreateReply
	if err := json.Unmarshal(env.Data, &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.SessionID != 5 || reply.Token == "" {
		t.Fatalf("期望 session_id=5 且有 token，实际 %+v", reply)
	}

	env = do(t, e, nethttp.MethodGet, "/island/map", reply.Token, nil)
	if env.Code != transport.OK || rt.lastID != 5 {
		t.Fatalf("期望用令牌中的对局 id 查询地图，实际 code=%d id=%d", env.Code, rt.lastID)
	}
}

func TestAuth_缺少令牌拒绝(t *testing.T) {
	e, _ := newTestEngine(&fakeRuntime{})
	for _, path := range []string{"/island/map", "/island/resources"} {
		env := do(t, e, nethttp.MethodGet, path, "", nil)
		if env.Code != transport.Unauthorized {
			t.Fatalf("%s 期望 %d，实际 %d", path, transport.Unauthorized, env.Code)
		}
	}
}

func TestBuild_参数校验与越界(t *testing.T) {
	rt := &fakeRuntime{}
	e, signer := newTestEngine(rt)
	token, _ := signer.Award(8)

	if env := do(t, e, nethttp.MethodPost, "/island/build", token, map[string]any{}); env.Code != transport.InvalidParam {
		t.Fatalf("期望缺少 index -> %d，实际 %d", transport.InvalidParam, env.Code)
	}
	if env := do(t, e, nethttp.MethodPost, "/island/build", token, map[string]any{"index": 16}); env.Code != transport.Rejected {
		t.Fatalf("期望越界 -> %d，实际 %d", transport.Rejected, env.Code)
	}
	env := do(t, e, nethttp.MethodPost, "/island/build", token, map[string]any{"index": 0})
	if env.Code != transport.OK {
		t.Fatalf("期望 index=0 登记成功，实际 %d %s", env.Code, env.Msg)
	}
	var bv app.BuildView
	_ = json.Unmarshal(env.Data, &bv)
	if len(bv.Owned) != 1 || bv.Owned[0] != 0 {
		t.Fatalf("期望拥有 [0]，实际 %v", bv.Owned)
	}
}

func TestRoll_返回点数(t *testing.T) {
	e, signer := newTestEngine(&fakeRuntime{})
	token, _ := signer.Award(9)

	env := do(t, e, nethttp.MethodPost, "/island/roll", token, nil)
	var rv app.RollView
	if err := json.Unmarshal(env.Data, &rv); err != nil {
		t.Fatalf("decode roll: %v", err)
	}
	if env.Code != transport.OK || rv.Sum != 7 {
		t.Fatalf("期望 sum=7，实际 code=%d sum=%d", env.Code, rv.Sum)
	}
}
