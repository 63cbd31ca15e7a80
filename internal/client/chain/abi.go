package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	methodListIDs      = "getAllBusinessIds"
	methodGetRecord    = "getBusinessData"
	methodGetHandle    = "getEncryptedValue"
	methodIsAvailable  = "isAvailable"
	methodCreateRecord = "createBusinessData"
	methodVerify       = "verifyDecryption"
)

// storeABI covers the subset of the record store contract used by the client.
const storeABI = `[
  {"type":"function","name":"getAllBusinessIds","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"string[]"}]},
  {"type":"function","name":"getBusinessData","stateMutability":"view",
   "inputs":[{"name":"businessId","type":"string"}],
   "outputs":[
     {"name":"name","type":"string"},
     {"name":"publicValue1","type":"uint256"},
     {"name":"publicValue2","type":"uint256"},
     {"name":"description","type":"string"},
     {"name":"creator","type":"address"},
     {"name":"timestamp","type":"uint256"},
     {"name":"isVerified","type":"bool"},
     {"name":"decryptedValue","type":"uint32"}]},
  {"type":"function","name":"getEncryptedValue","stateMutability":"view",
   "inputs":[{"name":"businessId","type":"string"}],
   "outputs":[{"name":"","type":"bytes32"}]},
  {"type":"function","name":"isAvailable","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"createBusinessData","stateMutability":"nonpayable",
   "inputs":[
     {"name":"businessId","type":"string"},
     {"name":"name","type":"string"},
     {"name":"encryptedValue","type":"bytes32"},
     {"name":"inputProof","type":"bytes"},
     {"name":"publicValue1","type":"uint256"},
     {"name":"publicValue2","type":"uint256"},
     {"name":"description","type":"string"}],
   "outputs":[]},
  {"type":"function","name":"verifyDecryption","stateMutability":"nonpayable",
   "inputs":[
     {"name":"businessId","type":"string"},
     {"name":"abiEncodedClearValue","type":"bytes"},
     {"name":"decryptionProof","type":"bytes"}],
   "outputs":[]}
]`

var parsedABI = mustParseABI(storeABI)

func mustParseABI(s string) abi.ABI {
	a, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return a
}
