package domain

// ChannelProfile is the aggregated public view of a user's channel: the
// profile fields joined against the subscriptions collection.
type ChannelProfile struct {
	FullName                  string `json:"full_name" bson:"full_name"`
	Username                  string `json:"username" bson:"username"`
	Email                     string `json:"email" bson:"email"`
	Avatar                    Image  `json:"avatar" bson:"avatar"`
	CoverImage                Image  `json:"cover_image" bson:"cover_image"`
	SubscribersCount          int64  `json:"subscribers_count" bson:"subscribers_count"`
	ChannelsSubscribedToCount int64  `json:"channels_subscribed_to_count" bson:"channels_subscribed_to_count"`
	// IsSubscribed is true when the requesting viewer subscribes to this
	// channel. Always false for anonymous viewers.
	IsSubscribed bool `json:"is_subscribed" bson:"is_subscribed"`
}
