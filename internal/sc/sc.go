package sc

const (
	ERC20Transfer = "Transfer(address,address,uint256)"
)
