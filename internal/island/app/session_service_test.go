package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"HexHarvest/internal/island/domain"
	"HexHarvest/modules/kit/errx"
	"HexHarvest/modules/kit/logx"
)

type fakeRepo struct {
	mu      sync.Mutex
	snaps   map[domain.SessionID]domain.SessionSnapshot
	saves   int
	saveErr error
	loadErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{snaps: make(map[domain.SessionID]domain.SessionSnapshot)}
}

func (r *fakeRepo) Load(_ context.Context, id domain.SessionID) (*domain.SessionSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	s, ok := r.snaps[id]
	if !ok {
		return nil, domain.ErrSessionNotFound.WithData("session_id", int64(id))
	}
	return &s, nil
}

func (r *fakeRepo) Save(_ context.Context, s *domain.SessionSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.snaps[s.ID] = *s
	return nil
}

func fixedIDs(id int64) IDGen {
	return func() (int64, error) { return id, nil }
}

func newTestService(repo *fakeRepo) *SessionService {
	return NewSessionService(repo, logx.Nop(), fixedIDs(42), Options{TileCount: 16, Seed: 7})
}

func TestStart_生成地图并立即存档(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	sess, err := svc.Start(context.Background())
	if err != nil {
		t.Fatalf("期望开局成功，实际 err=%v", err)
	}
	if sess.ID() != 42 {
		t.Fatalf("期望 id=42，实际 %d", sess.ID())
	}
	if sess.Map().Len() != 16 {
		t.Fatalf("期望 16 块地，实际 %d", sess.Map().Len())
	}
	if repo.saves != 1 {
		t.Fatalf("期望开局存档一次，实际 %d", repo.saves)
	}
	if sess.Dirty() {
		t.Fatalf("期望存档后不再是脏数据")
	}
}

func TestStart_ID生成失败返回系统错误(t *testing.T) {
	svc := NewSessionService(newFakeRepo(), logx.Nop(), func() (int64, error) {
		return 0, errors.New("clock moved backwards")
	}, Options{Seed: 1})

	_, err := svc.Start(context.Background())
	if !errors.Is(err, ErrInternalServer) {
		t.Fatalf("期望 ErrInternalServer，实际 %v", err)
	}
}

func TestLoad_读回同一局(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	sess, err := svc.Start(ctx)
	if err != nil {
		t.Fatalf("开局失败: %v", err)
	}
	if err := svc.Build(ctx, sess, 3); err != nil {
		t.Fatalf("期望登记成功，实际 %v", err)
	}
	svc.Roll(ctx, sess)
	if err := svc.Save(ctx, sess); err != nil {
		t.Fatalf("存档失败: %v", err)
	}

	got, err := svc.Load(ctx, sess.ID())
	if err != nil {
		t.Fatalf("期望读档成功，实际 %v", err)
	}
	if got.Rolls() != 1 {
		t.Fatalf("期望 rolls=1，实际 %d", got.Rolls())
	}
	owned := got.Map().Owned()
	if len(owned) != 1 || owned[0] != 3 {
		t.Fatalf("期望拥有 [3]，实际 %v", owned)
	}
	// 恢复后的随机序列与原局一致
	if a, b := sess.Roll().Dice, got.Roll().Dice; a != b {
		t.Fatalf("期望下一次掷骰一致，实际 %v vs %v", a, b)
	}
}

func TestLoad_不存在返回业务错误(t *testing.T) {
	svc := newTestService(newFakeRepo())
	_, err := svc.Load(context.Background(), 99)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("期望 ErrSessionNotFound，实际 %v", err)
	}
}

func TestLoad_存储故障包装为不可用(t *testing.T) {
	repo := newFakeRepo()
	repo.loadErr = errors.New("dial tcp: refused")
	svc := newTestService(repo)

	_, err := svc.Load(context.Background(), 1)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("期望 ErrUnavailable，实际 %v", err)
	}
	e, ok := errx.As(err)
	if !ok || e.Reason() != ReasonRepoLoadFail.Code {
		t.Fatalf("期望 reason=%s，实际 %v", ReasonRepoLoadFail.Code, err)
	}
}

func TestBuild_越界不改变地图(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()
	sess, _ := svc.Start(ctx)

	err := svc.Build(ctx, sess, 16)
	if !errors.Is(err, ErrTileOutOfRange) {
		t.Fatalf("期望 ErrTileOutOfRange，实际 %v", err)
	}
	if len(sess.Map().Owned()) != 0 {
		t.Fatalf("期望拥有集合为空")
	}
	if sess.Dirty() {
		t.Fatalf("期望失败的登记不标脏")
	}
}

func TestSave_失败后保持脏标记(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	sess, _ := svc.Start(ctx)

	svc.Roll(ctx, sess)
	repo.saveErr = errors.New("disk full")
	if err := svc.Save(ctx, sess); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("期望 ErrUnavailable，实际 %v", err)
	}
	if !sess.Dirty() {
		t.Fatalf("期望保存失败后仍为脏数据")
	}

	repo.saveErr = nil
	if err := svc.Save(ctx, sess); err != nil {
		t.Fatalf("期望重试成功，实际 %v", err)
	}
	if repo.snaps[42].Version != sess.Version() {
		t.Fatalf("期望仓库版本 %d，实际 %d", sess.Version(), repo.snaps[42].Version)
	}
}

func TestSave_无改动不写库(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()
	sess, _ := svc.Start(ctx)

	if err := svc.Save(ctx, sess); err != nil {
		t.Fatalf("保存失败: %v", err)
	}
	if repo.saves != 1 {
		t.Fatalf("期望只写一次，实际 %d", repo.saves)
	}
}

func TestViews_资源按固定顺序输出(t *testing.T) {
	svc := newTestService(newFakeRepo())
	sess, _ := svc.Start(context.Background())

	rv := ToResourcesView(sess)
	if len(rv.Counts) != len(domain.Resources) {
		t.Fatalf("期望 %d 种资源，实际 %d", len(domain.Resources), len(rv.Counts))
	}
	for i, r := range domain.Resources {
		if rv.Counts[i].Resource != r.String() {
			t.Fatalf("期望第 %d 项为 %s，实际 %s", i, r, rv.Counts[i].Resource)
		}
	}

	_ = sess.Build(2)
	_ = sess.Build(2)
	mv := ToMapView(sess, 0)
	if mv.RowWidth != domain.DefaultRowWidth {
		t.Fatalf("期望默认行宽 %d，实际 %d", domain.DefaultRowWidth, mv.RowWidth)
	}
	if mv.Tiles[2].Owned != 2 {
		t.Fatalf("期望 2 号地块拥有 2 次，实际 %d", mv.Tiles[2].Owned)
	}
}
