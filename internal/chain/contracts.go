package chain

// Contract ABIs for the SORAYIA token and staking contracts on BSC.
// Only the methods the controller actually calls are declared; the
// staking contract's business rules (reward rate, lock enforcement) are
// opaque behind this surface.

// ERC20ABI covers the token reads and the approval write.
const ERC20ABI = `[
	{
		"constant": true,
		"inputs": [{"name": "account", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	}
]`

// StakingABI covers the four writes and four parameter reads of the
// staking contract.
const StakingABI = `[
	{
		"constant": false,
		"inputs": [{"name": "amount", "type": "uint256"}],
		"name": "stake",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [{"name": "amount", "type": "uint256"}],
		"name": "withdraw",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [],
		"name": "claimRewards",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "account", "type": "address"}],
		"name": "getUserStake",
		"outputs": [
			{"name": "stakedAmount", "type": "uint256"},
			{"name": "pendingRewards", "type": "uint256"},
			{"name": "lockEndTime", "type": "uint256"}
		],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "minStakeAmount",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "maxStakeAmount",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "lockPeriod",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "totalStaked",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	}
]`
