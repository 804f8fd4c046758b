package consts

import "runtime"

const (
	ChainIDSolana uint32 = 100000

	// SecondsPerDay / DaysPerYear 年化收益计算使用
	SecondsPerDay = 60 * 60 * 24
	DaysPerYear   = 365
)

// CpuCount 表示逻辑 CPU 核心数，用于控制并发任务调度上限
var CpuCount = runtime.NumCPU()
