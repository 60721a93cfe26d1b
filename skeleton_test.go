package k4abt

import "testing"

func TestJointOrder(t *testing.T) {

	// the joint enumeration order is fixed by the native SDK
	fixed := map[JointID]int{
		JointPelvis:        0,
		JointSpineNavel:    1,
		JointSpineChest:    2,
		JointNeck:          3,
		JointClavicleLeft:  4,
		JointHandLeft:      8,
		JointThumbLeft:     10,
		JointClavicleRight: 11,
		JointThumbRight:    17,
		JointHipLeft:       18,
		JointFootLeft:      21,
		JointHipRight:      22,
		JointFootRight:     25,
		JointHead:          26,
		JointNose:          27,
		JointEyeLeft:       28,
		JointEarRight:      31,
	}

	for joint, want := range fixed {
		if int(joint) != want {
			t.Errorf("joint %s has value %d, want %d", joint, int(joint), want)
		}
	}

	if JointCount != 32 {
		t.Errorf("JointCount = %d, want 32", JointCount)
	}
}

func TestJointNames(t *testing.T) {

	seen := make(map[string]JointID)

	for j := JointID(0); j < JointCount; j++ {

		name := j.String()

		if name == "" {
			t.Errorf("joint %d has no name", int(j))
		}

		if prev, dup := seen[name]; dup {
			t.Errorf("joints %d and %d share the name %q", int(prev), int(j), name)
		}

		seen[name] = j
	}

	if got := JointID(99).String(); got != "unknown joint 99" {
		t.Errorf("out of range joint name = %q", got)
	}
}

func TestConfidenceLevels(t *testing.T) {

	levels := []struct {
		level ConfidenceLevel
		value int
		name  string
	}{
		{ConfidenceNone, 0, "none"},
		{ConfidenceLow, 1, "low"},
		{ConfidenceMedium, 2, "medium"},
		{ConfidenceHigh, 3, "high"},
	}

	for _, l := range levels {
		if int(l.level) != l.value {
			t.Errorf("%s has value %d, want %d", l.name, int(l.level), l.value)
		}

		if l.level.String() != l.name {
			t.Errorf("confidence %d String() = %q, want %q", l.value,
				l.level.String(), l.name)
		}
	}
}

func TestSkeletonShape(t *testing.T) {

	var s Skeleton

	if len(s.Joints) != 32 {
		t.Fatalf("skeleton exposes %d joints, want 32", len(s.Joints))
	}

	// confidence zero value must be the "not observed" level
	for j, joint := range s.Joints {
		if joint.Confidence != ConfidenceNone {
			t.Errorf("joint %d zero value confidence = %v", j, joint.Confidence)
		}
	}
}

func TestReservedValues(t *testing.T) {

	if InvalidBodyID != 0xFFFFFFFF {
		t.Errorf("InvalidBodyID = %#x, want 0xFFFFFFFF", InvalidBodyID)
	}

	if BackgroundIndex != 255 {
		t.Errorf("BackgroundIndex = %d, want 255", BackgroundIndex)
	}
}
