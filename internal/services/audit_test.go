package services

import (
	"reflect"
	"testing"

	"gorm.io/datatypes"
)

func TestChangedFields_Diff(t *testing.T) {
	oldJSON := datatypes.JSON(`{"part_code":"A","part_name":"Bolt","status":"active"}`)
	newJSON := datatypes.JSON(`{"part_code":"A","part_name":"Nut","status":"inactive"}`)
	got := changedFields(oldJSON, newJSON)
	want := []string{"part_name", "status"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("changedFields = %v, want %v", got, want)
	}
}

func TestChangedFields_AddedAndRemovedKeys(t *testing.T) {
	oldJSON := datatypes.JSON(`{"a":1,"gone":2}`)
	newJSON := datatypes.JSON(`{"a":1,"added":3}`)
	got := changedFields(oldJSON, newJSON)
	want := []string{"added", "gone"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("changedFields = %v, want %v", got, want)
	}
}

func TestChangedFields_Identical(t *testing.T) {
	snap := datatypes.JSON(`{"a":1,"b":"x"}`)
	if got := changedFields(snap, snap); len(got) != 0 {
		t.Fatalf("identical snapshots must yield no changes, got %v", got)
	}
}

func TestMarshalSnapshot_Nil(t *testing.T) {
	got, err := marshalSnapshot(nil)
	if err != nil {
		t.Fatalf("marshalSnapshot(nil): %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil snapshot, got %s", got)
	}
}
