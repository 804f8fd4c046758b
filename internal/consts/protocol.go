package consts

const (
	ProtocolFriktion   = iota + 1 // 1
	ProtocolOrca                  // 2
	ProtocolLido                  // 3
	ProtocolLifinity              // 4
	ProtocolNftFinance            // 5
)

var ProtocolNames = []string{
	"Unknown",    // 0 (保留)
	"Friktion",   // 1
	"Orca",       // 2
	"Lido",       // 3
	"Lifinity",   // 4
	"NftFinance", // 5
}

func ProtocolName(protocol int) string {
	if protocol >= 1 && protocol < len(ProtocolNames) {
		return ProtocolNames[protocol]
	}
	return ProtocolNames[0] // Unknown
}
