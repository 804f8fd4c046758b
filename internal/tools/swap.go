package tools

import "math/big"

// ConstantProductOut 恒定乘积 x*y=k 下输入 dx 的输出量：dy = y1 - k/(x1+dx)，整数除法向零截断。
// 参数为 nil、为负数或 x1+dx == 0 时返回 0
func ConstantProductOut(x1, y1, dx *big.Int) *big.Int {
	if x1 == nil || y1 == nil || dx == nil {
		return new(big.Int)
	}
	if x1.Sign() < 0 || y1.Sign() < 0 || dx.Sign() < 0 {
		return new(big.Int)
	}
	x2 := new(big.Int).Add(x1, dx)
	if x2.Sign() == 0 {
		return new(big.Int)
	}
	k := new(big.Int).Mul(x1, y1)
	y2 := new(big.Int).Quo(k, x2)
	return y2.Sub(y1, y2)
}

// SwapSide 输入方向：coin 以 A 侧为输入，pc 以 B 侧为输入
type SwapSide string

const (
	SideCoin SwapSide = "coin"
	SidePc   SwapSide = "pc"
)

// SwapOut 按方向选择输入侧储备；未知方向返回 0
func SwapOut(side SwapSide, reserveA, reserveB uint64, amountIn *big.Int) *big.Int {
	a := new(big.Int).SetUint64(reserveA)
	b := new(big.Int).SetUint64(reserveB)
	switch side {
	case SideCoin:
		return ConstantProductOut(a, b, amountIn)
	case SidePc:
		return ConstantProductOut(b, a, amountIn)
	}
	return new(big.Int)
}
