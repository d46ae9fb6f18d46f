package service

import (
	"math/rand"
	"sync"
	"time"
)

// Randomizer 抽题与选项乱序使用的随机源，*rand.Rand 满足该接口
type Randomizer interface {
	Perm(n int) []int
	Shuffle(n int, swap func(i, j int))
}

// lockedRand 让同一个 *rand.Rand 可以被并发请求共享
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewRandomizer(seed int64) Randomizer {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

// NewTimeSeededRandomizer 不可复现的随机源，生产环境使用
func NewTimeSeededRandomizer() Randomizer {
	return NewRandomizer(time.Now().UnixNano())
}

func (l *lockedRand) Perm(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Perm(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// sampleIDs 无放回地均匀抽取 count 个题目 ID，返回顺序即抽取顺序
func sampleIDs(rnd Randomizer, questions []uint, count int) []uint {
	perm := rnd.Perm(len(questions))
	ids := make([]uint, count)
	for i := 0; i < count; i++ {
		ids[i] = questions[perm[i]]
	}
	return ids
}
