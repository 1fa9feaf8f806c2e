package snowflake32

import (
	"fmt"
	"sync"
	"time"
)

// Snowflake 24小时内不会重复的SMPP序号生成器
// 构成为: 0 | seconds 17 bit | datacenter 2 bit | worker 3 bit | sequence 9 bit
// 结果落在 SMPP sequence_number 的合法区间 0x00000001-0x7FFFFFFF 内。
// 单节点每秒超过512个序号时会阻塞到下一秒。
type Snowflake struct {
	sync.Mutex       // 锁
	seconds    int32 // 截止到午夜0点的秒数
	datacenter int32 // 数据中心id, 取值范围：0-3
	worker     int32 // 工作节点id, 取值范围：0-7
	sequence   int32 // 序列号
	clock      func() time.Time
}

const (
	sequenceMask    = int32(0x01ff)
	datacenterMask  = int32(0x03)
	workerMask      = int32(0x07)
	datacenterBits  = uint(2)
	workerBits      = uint(3)
	sequenceBits    = uint(9)
	workerShift     = sequenceBits
	datacenterShift = sequenceBits + workerBits
	timestampShift  = sequenceBits + workerBits + datacenterBits
)

// NewSnowflake d for datacenter-id, w for worker-id; out-of-range ids are masked.
func NewSnowflake(d int32, w int32) *Snowflake {
	return &Snowflake{datacenter: d & datacenterMask, worker: w & workerMask, clock: time.Now}
}

func (s *Snowflake) NextVal() int32 {
	s.Lock()
	defer s.Unlock()
	for {
		now := s.passedSeconds()
		if s.seconds == now {
			s.sequence = (s.sequence + 1) & sequenceMask
			if s.sequence == 0 {
				// 当前秒的序列已用完，等待下一秒（午夜后秒数回到0）
				for now == s.seconds {
					time.Sleep(time.Microsecond)
					now = s.passedSeconds()
				}
			}
		} else {
			s.sequence = 0
		}
		s.seconds = now
		r := (s.seconds << timestampShift) | (s.datacenter << datacenterShift) | (s.worker << workerShift) | s.sequence
		// 0 不是合法的 sequence_number
		if r != 0 {
			return r
		}
	}
}

func (s *Snowflake) String() string {
	return fmt.Sprintf("%d:%d:%d:%d", s.seconds, s.datacenter, s.worker, s.sequence)
}

func (s *Snowflake) passedSeconds() int32 {
	t := s.clock()
	return int32(t.Hour()*3600 + t.Minute()*60 + t.Second())
}
