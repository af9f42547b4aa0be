package engine

import (
	"sync"
	"time"

	"github.com/Shellect/greenhouse-server/internal/models"
)

// Session 单个控制器的会话状态（生长阶段 + 最近浇水时间）
// 读写必须持有 mu；引擎在一次评估内全程持锁，保证冷却检查与更新的原子性
type Session struct {
	mu           sync.Mutex
	stage        models.GrowthStage
	lastWatering *time.Time
}

// canWater 浇水冷却是否已过（从未浇过水视为可浇）
func (s *Session) canWater(now time.Time, cooldown time.Duration) bool {
	if s.lastWatering == nil {
		return true
	}
	return now.Sub(*s.lastWatering) >= cooldown
}

// SessionStore 按控制器ID维护会话状态
// 每个物理温室独立一份状态，互不干扰
type SessionStore struct {
	mu           sync.Mutex
	sessions     map[string]*Session
	defaultStage models.GrowthStage
}

// NewSessionStore 创建会话存储
func NewSessionStore(defaultStage models.GrowthStage) *SessionStore {
	if !defaultStage.Valid() {
		defaultStage = models.StageVegetative
	}
	return &SessionStore{
		sessions:     make(map[string]*Session),
		defaultStage: defaultStage,
	}
}

// get 获取（必要时创建）控制器会话
func (st *SessionStore) get(controllerID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[controllerID]
	if !ok {
		sess = &Session{stage: st.defaultStage}
		st.sessions[controllerID] = sess
	}
	return sess
}
