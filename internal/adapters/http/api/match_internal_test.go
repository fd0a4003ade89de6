package api

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMatchRequest_Validate(t *testing.T) {
	Convey("Given a match request", t, func() {
		Convey("When the requirement is present", func() {
			So(matchRequest{Requirement: "Go engineer", Limit: 3}.validate(), ShouldBeNil)
			So(matchRequest{Requirement: "Go engineer"}.validate(), ShouldBeNil)
		})

		Convey("When the requirement is blank", func() {
			err := matchRequest{Requirement: " \t"}.validate()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "missing requirement")
		})

		Convey("When the limit is negative", func() {
			err := matchRequest{Requirement: "x", Limit: -2}.validate()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "limit")
		})
	})
}
