package domain

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"massa-autoroll/internal/idhash"
)

// Operation errors.
var (
	ErrMissingOperationType = errors.New("operation type is required")
	ErrUnknownOperationType = errors.New("unknown operation type")
	ErrKeyMismatch          = errors.New("private key does not match sender public key")
)

// Operation type ids used in the compact encoding.
const (
	opTypeTransaction uint64 = iota
	opTypeRollBuy
	opTypeRollSell
	opTypeExecuteSC
)

// OperationType is the closed set of operation kinds:
// Transaction, RollBuy, RollSell and ExecuteSC.
type OperationType interface {
	// Name is the JSON tag of the variant.
	Name() string

	appendCompact(b []byte) []byte
}

// Transaction transfers coins to another address.
type Transaction struct {
	RecipientAddress Address `json:"recipient_address"`
	Amount           Amount  `json:"amount"`
}

// RollBuy buys rolls with the sender's balance.
type RollBuy struct {
	RollCount uint64 `json:"roll_count"`
}

// RollSell sells rolls back to the sender's balance.
type RollSell struct {
	RollCount uint64 `json:"roll_count"`
}

// ExecuteSC executes smart contract bytecode.
type ExecuteSC struct {
	Data     Bytes  `json:"data"`
	MaxGas   uint64 `json:"max_gas"`
	Coins    Amount `json:"coins"`
	GasPrice Amount `json:"gas_price"`
}

func (Transaction) Name() string { return "Transaction" }
func (RollBuy) Name() string     { return "RollBuy" }
func (RollSell) Name() string    { return "RollSell" }
func (ExecuteSC) Name() string   { return "ExecuteSC" }

func (t Transaction) appendCompact(b []byte) []byte {
	b = binary.AppendUvarint(b, opTypeTransaction)
	b = append(b, t.RecipientAddress[:]...)
	return binary.AppendUvarint(b, t.Amount.Raw())
}

func (r RollBuy) appendCompact(b []byte) []byte {
	b = binary.AppendUvarint(b, opTypeRollBuy)
	return binary.AppendUvarint(b, r.RollCount)
}

func (r RollSell) appendCompact(b []byte) []byte {
	b = binary.AppendUvarint(b, opTypeRollSell)
	return binary.AppendUvarint(b, r.RollCount)
}

func (e ExecuteSC) appendCompact(b []byte) []byte {
	b = binary.AppendUvarint(b, opTypeExecuteSC)
	b = binary.AppendUvarint(b, uint64(len(e.Data)))
	b = append(b, e.Data...)
	b = binary.AppendUvarint(b, e.MaxGas)
	b = binary.AppendUvarint(b, e.Coins.Raw())
	return binary.AppendUvarint(b, e.GasPrice.Raw())
}

// marshalOperationType encodes op externally tagged: {"RollBuy":{"roll_count":1}}.
func marshalOperationType(op OperationType) ([]byte, error) {
	if op == nil {
		return nil, ErrMissingOperationType
	}
	return json.Marshal(map[string]OperationType{op.Name(): op})
}

func unmarshalOperationType(data []byte) (OperationType, error) {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return nil, fmt.Errorf("decode operation type: %w", err)
	}
	if len(tagged) != 1 {
		return nil, fmt.Errorf("decode operation type: expected one variant, got %d", len(tagged))
	}

	for name, body := range tagged {
		var op OperationType
		var err error
		switch name {
		case "Transaction":
			var v Transaction
			err = json.Unmarshal(body, &v)
			op = v
		case "RollBuy":
			var v RollBuy
			err = json.Unmarshal(body, &v)
			op = v
		case "RollSell":
			var v RollSell
			err = json.Unmarshal(body, &v)
			op = v
		case "ExecuteSC":
			var v ExecuteSC
			err = json.Unmarshal(body, &v)
			op = v
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownOperationType, name)
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return op, nil
	}
	return nil, ErrMissingOperationType
}

// OperationContent is the unsigned payload of an operation.
type OperationContent struct {
	SenderPublicKey PublicKey
	Fee             Amount
	ExpirePeriod    uint64
	Op              OperationType
}

type operationContentJSON struct {
	SenderPublicKey PublicKey       `json:"sender_public_key"`
	Fee             Amount          `json:"fee"`
	ExpirePeriod    uint64          `json:"expire_period"`
	Op              json.RawMessage `json:"op"`
}

// MarshalJSON implements json.Marshaler.
func (c OperationContent) MarshalJSON() ([]byte, error) {
	op, err := marshalOperationType(c.Op)
	if err != nil {
		return nil, err
	}
	return json.Marshal(operationContentJSON{
		SenderPublicKey: c.SenderPublicKey,
		Fee:             c.Fee,
		ExpirePeriod:    c.ExpirePeriod,
		Op:              op,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *OperationContent) UnmarshalJSON(data []byte) error {
	var raw operationContentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	op, err := unmarshalOperationType(raw.Op)
	if err != nil {
		return err
	}
	*c = OperationContent{
		SenderPublicKey: raw.SenderPublicKey,
		Fee:             raw.Fee,
		ExpirePeriod:    raw.ExpirePeriod,
		Op:              op,
	}
	return nil
}

// Bytes returns the compact encoding that is hashed and signed.
func (c OperationContent) Bytes() []byte {
	b := make([]byte, 0, PublicKeySize+32)
	b = append(b, c.SenderPublicKey[:]...)
	b = binary.AppendUvarint(b, c.Fee.Raw())
	b = binary.AppendUvarint(b, c.ExpirePeriod)
	if c.Op != nil {
		b = c.Op.appendCompact(b)
	}
	return b
}

// SignedOperation is a signed OperationContent, the unit submitted to a node.
// ID is derived from content and signature and is not sent on the wire.
type SignedOperation struct {
	Content   OperationContent `json:"content"`
	Signature Signature        `json:"signature"`
	ID        OperationID      `json:"-"`
}

// SignOperation signs content with key, which must belong to the sender.
func SignOperation(content OperationContent, key PrivateKey) (*SignedOperation, error) {
	if content.Op == nil {
		return nil, ErrMissingOperationType
	}
	if key.PublicKey() != content.SenderPublicKey {
		return nil, ErrKeyMismatch
	}

	payload := content.Bytes()
	digest := idhash.Sum(payload)
	sig := key.Sign(digest[:])

	return &SignedOperation{
		Content:   content,
		Signature: sig,
		ID:        computeOperationID(payload, sig),
	}, nil
}

// Verify checks the signature against the sender public key.
func (op *SignedOperation) Verify() bool {
	digest := idhash.Sum(op.Content.Bytes())
	return op.Content.SenderPublicKey.Verify(digest[:], op.Signature)
}

// UnmarshalJSON decodes the wire form and recomputes ID.
func (op *SignedOperation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Content   OperationContent `json:"content"`
		Signature Signature        `json:"signature"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	op.Content = raw.Content
	op.Signature = raw.Signature
	op.ID = computeOperationID(raw.Content.Bytes(), raw.Signature)
	return nil
}

func computeOperationID(payload []byte, sig Signature) OperationID {
	return OperationID(idhash.Sum(payload, sig[:]))
}
