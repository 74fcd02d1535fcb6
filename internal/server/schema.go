package server

// Schema is the GraphQL SDL served by the node.
const Schema = `
schema {
    query: Query
    mutation: Mutation
    subscription: Subscription
}

type Query {
    users(query: String): [User!]!
    posts(query: String): [Post!]!
    comments: [Comment!]!
}

type Mutation {
    createUser(data: UserCreateInput!): User!
    updateUser(id: ID!, data: UserUpdateInput!): User!
    deleteUser(id: ID!): User!
    createPost(data: PostCreateInput!): Post!
    updatePost(id: ID!, data: PostUpdateInput!): Post!
    deletePost(id: ID!): Post!
    createComment(data: CommentCreateInput!): Comment!
    updateComment(id: ID!, data: CommentUpdateInput!): Comment!
    deleteComment(id: ID!): Comment!
}

type Subscription {
    post: PostEvent!
    comment(postId: ID!): CommentEvent!
}

type User {
    id: ID!
    name: String!
    email: String!
    age: Int
    posts: [Post!]!
    comments: [Comment!]!
}

type Post {
    id: ID!
    title: String!
    body: String!
    published: Boolean!
    author: User!
    comments: [Comment!]!
}

type Comment {
    id: ID!
    text: String!
    author: User!
    post: Post!
}

enum MutationKind {
    CREATED
    UPDATED
    DELETED
}

type PostEvent {
    mutation: MutationKind!
    data: Post!
}

type CommentEvent {
    mutation: MutationKind!
    data: Comment!
}

input UserCreateInput {
    name: String!
    email: String!
    age: Int
}

input UserUpdateInput {
    name: String
    email: String
    age: Int
}

input PostCreateInput {
    title: String!
    body: String!
    published: Boolean!
    author: ID!
}

input PostUpdateInput {
    title: String
    body: String
    published: Boolean
}

input CommentCreateInput {
    text: String!
    author: ID!
    post: ID!
}

input CommentUpdateInput {
    text: String
}
`
