package transfer

import "testing"

// requireIdleInvariant checks the contract that an inactive state never
// carries a stale percent or status.
func requireIdleInvariant(t *testing.T, st State) {
	t.Helper()
	if !st.Active && (st.Percent != 0 || st.StatusText != "") {
		t.Errorf("Idle state carries leftovers: %+v", st)
	}
}

func TestStateStoreInitialSnapshot(t *testing.T) {
	store := NewStateStore()
	st := store.Snapshot()

	if st.Active {
		t.Error("Expected a fresh store to be idle")
	}
	if st.ItemCount != 1 {
		t.Errorf("Expected item count 1, got %d", st.ItemCount)
	}
	requireIdleInvariant(t, st)
}

func TestStateStoreLifecycle(t *testing.T) {
	store := NewStateStore()

	store.begin(3, "Compressing 3 recordings...")
	st := store.Snapshot()
	if !st.Active || st.Percent != 0 || st.ItemCount != 3 {
		t.Errorf("Unexpected state after begin: %+v", st)
	}
	if st.StatusText != "Compressing 3 recordings..." {
		t.Errorf("Unexpected status after begin: %q", st.StatusText)
	}

	store.progress(42, statusDownloading)
	st = store.Snapshot()
	if st.Percent != 42 || st.StatusText != statusDownloading {
		t.Errorf("Unexpected state after progress: %+v", st)
	}
	if st.ItemCount != 3 {
		t.Errorf("Expected progress to keep item count, got %d", st.ItemCount)
	}

	store.reset()
	st = store.Snapshot()
	if st.Active {
		t.Error("Expected idle state after reset")
	}
	if st.ItemCount != 1 {
		t.Errorf("Expected item count back to 1, got %d", st.ItemCount)
	}
	requireIdleInvariant(t, st)
}

func TestStateStoreProgressIgnoredWhenIdle(t *testing.T) {
	store := NewStateStore()
	store.progress(55, statusDownloading)

	st := store.Snapshot()
	if st.Active || st.Percent != 0 || st.StatusText != "" {
		t.Errorf("Expected a late progress write to be dropped, got %+v", st)
	}
}

func TestStateStoreSubscribeSeedsCurrent(t *testing.T) {
	store := NewStateStore()
	store.begin(2, "Compressing 2 recordings...")

	ch, unsub := store.Subscribe()
	defer unsub()

	select {
	case st := <-ch:
		if !st.Active || st.ItemCount != 2 {
			t.Errorf("Expected seed snapshot of the current state, got %+v", st)
		}
	default:
		t.Fatal("Expected Subscribe to seed the channel with the current snapshot")
	}
}

func TestStateStoreSubscribeLatestWins(t *testing.T) {
	store := NewStateStore()
	ch, unsub := store.Subscribe()
	defer unsub()
	<-ch // drain the seed

	store.begin(1, "Compressing recording...")
	for _, pct := range []int{10, 20, 30, 40} {
		store.progress(pct, statusDownloading)
	}

	st := <-ch
	if st.Percent != 40 {
		t.Errorf("Expected a slow subscriber to observe the latest snapshot (40), got %d", st.Percent)
	}
	select {
	case extra := <-ch:
		t.Errorf("Expected intermediate snapshots to be replaced, got extra %+v", extra)
	default:
	}
}

func TestStateStoreUnsubscribeStopsDelivery(t *testing.T) {
	store := NewStateStore()
	ch, unsub := store.Subscribe()
	<-ch
	unsub()

	store.begin(1, "Compressing recording...")
	select {
	case st, ok := <-ch:
		if ok {
			t.Errorf("Expected no delivery after unsubscribe, got %+v", st)
		}
	default:
	}
}

func TestStateStoreSubscribersAreIndependent(t *testing.T) {
	store := NewStateStore()
	chA, unsubA := store.Subscribe()
	chB, unsubB := store.Subscribe()
	defer unsubB()
	<-chA
	<-chB
	unsubA()

	store.begin(1, "Compressing recording...")
	select {
	case st := <-chB:
		if !st.Active {
			t.Errorf("Expected remaining subscriber to observe the update, got %+v", st)
		}
	default:
		t.Error("Expected remaining subscriber to receive the update")
	}
}
