package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{Code: c, Message: m}
}

var (
	// 业务拒绝
	ReasonBuildOutOfRange  = NewReason("BUILD_OUT_OF_RANGE", "地块编号越界")
	ReasonSessionNotFound  = NewReason("SESSION_NOT_FOUND", "对局不存在")
	ReasonSnapshotCorrupt  = NewReason("SNAPSHOT_CORRUPT", "存档数据损坏")
	ReasonSessionIDFailure = NewReason("SESSION_ID_FAIL", "对局 id 生成失败")
)

var (
	// 技术错误
	ReasonRepoLoadFail = NewReason("SESSION_REPO_LOAD_FAIL", "对局读取失败")
	ReasonRepoSaveFail = NewReason("SESSION_REPO_SAVE_FAIL", "对局保存失败")
	ReasonNotOnline    = NewReason("SESSION_NOT_ONLINE", "对局尚未就绪")
)
