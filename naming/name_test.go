package naming_test

import (
	"testing"

	"go.viam.com/test"

	"go.hpp.dev/manipulation/naming"
)

func TestParseName(t *testing.T) {
	for _, tc := range []struct {
		Name     string
		Input    string
		Expected naming.Name
		Err      string
	}{
		{
			"manipulation",
			"hpp.plannerContext/hpp.manipulation",
			naming.ManipulationName,
			"",
		},
		{
			"leading and trailing slashes",
			"/hpp.plannerContext/hpp.basic/",
			naming.BasicName,
			"",
		},
		{
			"category only",
			"hpp",
			naming.Name{{Category: "hpp"}},
			"",
		},
		{
			"dotted id",
			"hpp.v1.graph",
			naming.Name{{Category: "hpp", ID: "v1.graph"}},
			"",
		},
		{
			"empty",
			"",
			nil,
			"name is empty",
		},
		{
			"missing category",
			"hpp.plannerContext/.manipulation",
			nil,
			"category field for name component missing or invalid",
		},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			name, err := naming.ParseName(tc.Input)
			if tc.Err != "" {
				test.That(t, err, test.ShouldNotBeNil)
				test.That(t, err.Error(), test.ShouldContainSubstring, tc.Err)
				return
			}
			test.That(t, err, test.ShouldBeNil)
			test.That(t, name, test.ShouldResemble, tc.Expected)
		})
	}
}

func TestNameString(t *testing.T) {
	test.That(t, naming.ManipulationName.String(), test.ShouldEqual, "hpp.plannerContext/hpp.manipulation")
	test.That(t, naming.BasicName.String(), test.ShouldEqual, "hpp.plannerContext/hpp.basic")

	name, err := naming.NewName("hpp", "plannerContext", "hpp", "manipulation")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, name.Equal(naming.ManipulationName), test.ShouldBeTrue)
	test.That(t, name.Equal(naming.BasicName), test.ShouldBeFalse)
	test.That(t, name.HasPrefix(naming.ManipulationName[:1]), test.ShouldBeTrue)
	test.That(t, name.HasPrefix(nil), test.ShouldBeTrue)
	test.That(t, name[:1].HasPrefix(name), test.ShouldBeFalse)

	_, err = naming.NewName("hpp")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = naming.NewName("h/pp", "x")
	test.That(t, err, test.ShouldNotBeNil)
}
