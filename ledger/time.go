package ledger

// Slot is the ledger-native monotonic tick. All auction timing is
// expressed in slots and compared lazily at transition time; nothing
// in the core sleeps on wall clocks.
type Slot uint64
