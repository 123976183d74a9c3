package log

import (
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 8, 14, 10, 15, 32, 123456789, time.UTC)
	original := Event{
		Timestamp: ts,
		SessionID: "abc12345-def6-7890-abcd-ef1234567890",
		Direction: DirectionOut,
		Layer:     LayerBus,
		Category:  CategoryTransfer,
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.SessionID != original.SessionID {
		t.Errorf("SessionID: got %q, want %q", decoded.SessionID, original.SessionID)
	}
	if decoded.Direction != original.Direction {
		t.Errorf("Direction: got %v, want %v", decoded.Direction, original.Direction)
	}
	if decoded.Layer != original.Layer {
		t.Errorf("Layer: got %v, want %v", decoded.Layer, original.Layer)
	}
	if decoded.Category != original.Category {
		t.Errorf("Category: got %v, want %v", decoded.Category, original.Category)
	}
}

func TestTransferEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		SessionID: "session-123",
		Direction: DirectionOut,
		Layer:     LayerBus,
		Category:  CategoryTransfer,
		Transfer: &TransferEvent{
			Size: 4,
			Data: []byte{0x14, 0x10, 0xDE, 0xAD},
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Transfer == nil {
		t.Fatal("Transfer is nil")
	}
	if decoded.Transfer.Size != original.Transfer.Size {
		t.Errorf("Transfer.Size: got %d, want %d", decoded.Transfer.Size, original.Transfer.Size)
	}
	if string(decoded.Transfer.Data) != string(original.Transfer.Data) {
		t.Errorf("Transfer.Data: got %v, want %v", decoded.Transfer.Data, original.Transfer.Data)
	}
}

func TestCommandEventCBORRoundTrip(t *testing.T) {
	addr := uint16(0x10)
	writeData := uint16(0xDEAD)
	word := uint16(0xBEEF)
	settle := 7 * time.Millisecond

	tests := []struct {
		name string
		cmd  *CommandEvent
	}{
		{
			name: "write",
			cmd: &CommandEvent{
				Kind:   "Write",
				Addr:   &addr,
				Data:   &writeData,
				Settle: &settle,
			},
		},
		{
			name: "read",
			cmd: &CommandEvent{
				Kind: "Read",
				Addr: &addr,
				Word: &word,
			},
		},
		{
			name: "write enable",
			cmd:  &CommandEvent{Kind: "WriteEnable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := Event{
				Timestamp: time.Now(),
				SessionID: "session-123",
				Direction: DirectionOut,
				Layer:     LayerCommand,
				Category:  CategoryCommand,
				Command:   tt.cmd,
			}

			data, err := EncodeEvent(original)
			if err != nil {
				t.Fatalf("EncodeEvent failed: %v", err)
			}

			decoded, err := DecodeEvent(data)
			if err != nil {
				t.Fatalf("DecodeEvent failed: %v", err)
			}

			if decoded.Command == nil {
				t.Fatal("Command is nil")
			}
			if decoded.Command.Kind != tt.cmd.Kind {
				t.Errorf("Command.Kind: got %q, want %q", decoded.Command.Kind, tt.cmd.Kind)
			}
			if tt.cmd.Addr != nil && (decoded.Command.Addr == nil || *decoded.Command.Addr != *tt.cmd.Addr) {
				t.Errorf("Command.Addr: got %v, want %v", decoded.Command.Addr, tt.cmd.Addr)
			}
			if tt.cmd.Data != nil && (decoded.Command.Data == nil || *decoded.Command.Data != *tt.cmd.Data) {
				t.Errorf("Command.Data: got %v, want %v", decoded.Command.Data, tt.cmd.Data)
			}
			if tt.cmd.Word != nil && (decoded.Command.Word == nil || *decoded.Command.Word != *tt.cmd.Word) {
				t.Errorf("Command.Word: got %v, want %v", decoded.Command.Word, tt.cmd.Word)
			}
			if tt.cmd.Settle != nil && (decoded.Command.Settle == nil || *decoded.Command.Settle != *tt.cmd.Settle) {
				t.Errorf("Command.Settle: got %v, want %v", decoded.Command.Settle, tt.cmd.Settle)
			}
		})
	}
}

func TestSelectEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		SessionID: "session-123",
		Direction: DirectionOut,
		Layer:     LayerDevice,
		Category:  CategorySelect,
		Select: &SelectEvent{
			Asserted: true,
			Reason:   "pulse",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Select == nil {
		t.Fatal("Select is nil")
	}
	if decoded.Select.Asserted != original.Select.Asserted {
		t.Errorf("Select.Asserted: got %v, want %v", decoded.Select.Asserted, original.Select.Asserted)
	}
	if decoded.Select.Reason != original.Select.Reason {
		t.Errorf("Select.Reason: got %q, want %q", decoded.Select.Reason, original.Select.Reason)
	}
}

func TestErrorEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		SessionID: "session-123",
		Direction: DirectionOut,
		Layer:     LayerBus,
		Category:  CategoryError,
		Error: &ErrorEventData{
			Layer:   LayerBus,
			Message: "bus fault: transmit while deselected",
			Context: "Write",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Error == nil {
		t.Fatal("Error is nil")
	}
	if decoded.Error.Layer != original.Error.Layer {
		t.Errorf("Error.Layer: got %v, want %v", decoded.Error.Layer, original.Error.Layer)
	}
	if decoded.Error.Message != original.Error.Message {
		t.Errorf("Error.Message: got %q, want %q", decoded.Error.Message, original.Error.Message)
	}
	if decoded.Error.Context != original.Error.Context {
		t.Errorf("Error.Context: got %q, want %q", decoded.Error.Context, original.Error.Context)
	}
}

func TestEventCBORUsesIntegerKeys(t *testing.T) {
	event := Event{
		Timestamp: time.Now(),
		SessionID: "session-123",
		Direction: DirectionIn,
		Layer:     LayerBus,
		Category:  CategoryTransfer,
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	// Decode to generic map and verify keys are integers
	var rawMap map[uint64]any
	if err := logDecMode.Unmarshal(data, &rawMap); err != nil {
		t.Fatalf("failed to decode as map: %v", err)
	}

	expectedKeys := []uint64{1, 2, 3, 4, 5}
	for _, key := range expectedKeys {
		if _, ok := rawMap[key]; !ok {
			t.Errorf("expected integer key %d not found in encoded data", key)
		}
	}

	// Verify no string keys
	var stringMap map[string]any
	if err := logDecMode.Unmarshal(data, &stringMap); err == nil && len(stringMap) > 0 {
		t.Error("encoded data contains string keys, expected integer keys only")
	}
}
